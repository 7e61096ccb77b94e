package main

import "project-board.com/project-board/cmd"

func main() {
	cmd.Execute()
}
