package main

import "github.com/Mohsinsiddi/lcurate/cmd"

func main() {
	cmd.Execute()
}
