package main

import "github.com/frahmantamala/photoid-studio/cmd"

func main() {
	cmd.Execute()
}
