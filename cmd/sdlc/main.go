// Command sdlc is the CLI front end for the deterministic SDLC decision
// engine: it tracks features, artifacts, tasks, comments, milestones and
// escalations on disk under .sdlc/, classifies a feature's single next
// action, and plans milestone dependency waves.
package main

import "github.com/sdlcstack/sdlc/internal/clicmd"

func main() {
	clicmd.Execute()
}
