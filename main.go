package main

import "github.com/Mohsinsiddi/w3dash/cmd"

func main() {
	cmd.Execute()
}
