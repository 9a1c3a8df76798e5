package main

import "exusiai.dev/sprintsummary/cmd/app"

func main() {
	app.Run()
}
