package main

import "talentflow_backend/internal/app"

func main() {
	app.Run()
}
