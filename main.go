package main

import "github.com/tuannda/membership-payments/cmd"

func main() {
	cmd.Execute()
}
