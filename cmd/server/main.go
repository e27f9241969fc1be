package main

import "codeclash/internal/server"

func main() {
	server.StartGinServer()
}
