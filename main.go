package main

import "github.com/cryptodiscord/cryptobot/entry"

func main() {
	entry.RunCmd()
}
