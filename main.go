package main

import "github.com/Prodigyb0y/OpenXML-Pivot-Table-Auto-Refresher/cmd"

func main() {
	cmd.Execute()
}
