package main

import "delivery-admin/cmd"

func main() {
	cmd.Execute()
}
