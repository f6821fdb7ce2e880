package main

import "github.com/nandoesporte/gut59/backend/internal/planctl"

func main() {
	planctl.Execute()
}
