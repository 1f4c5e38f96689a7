package main

import "github.com/ValentinKolb/plist/cmd"

func main() {
	cmd.Execute()
}
