package main

import "github.com/pfczx/profilescraper/cmd"

func main() {
	cmd.Execute()
}
