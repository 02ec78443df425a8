package main

import "github.com/SheepYY039/snipeit-netbox/cmd"

func main() {
	cmd.Execute()
}
