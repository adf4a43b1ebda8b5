package main

import "github.com/naka-gawa/github-onboarding/cmd"

func main() {
	cmd.Execute()
}
