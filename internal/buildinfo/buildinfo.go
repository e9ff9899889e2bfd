// Package buildinfo holds the banner printed by the binaries.
package buildinfo

const (
	ProjectName = "boardgames"
	GithubURL   = "https://github.com/bloops-games/boardgames"

	Graffiti = `
 _                         _
| |__   ___   __ _ _ __ __| | __ _  __ _ _ __ ___   ___  ___
| '_ \ / _ \ / _' | '__/ _' |/ _' |/ _' | '_ ' _ \ / _ \/ __|
| |_) | (_) | (_| | | | (_| | (_| | (_| | | | | | |  __/\__ \
|_.__/ \___/ \__,_|_|  \__,_|\__, |\__,_|_| |_| |_|\___||___/
                             |___/
`

	// GreetingCLI takes the project name, version and repository url.
	GreetingCLI = "%s %s\n%s\n\nType help to see the commands.\n\n"
)
