package main

import "github.com/KaramelBytes/profitlens/cmd"

func main() {
	cmd.Execute()
}
