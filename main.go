package main

import "github.com/frahmantamala/academic-requests/cmd"

func main() {
	cmd.Execute()
}
