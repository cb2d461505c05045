package main

import "anamny_backend/internal/app"

func main() {
	app.Run()
}
