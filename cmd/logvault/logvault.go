package main

import "github.com/Egor213/LogVault/internal/app"

func main() {
	app.Run()
}
