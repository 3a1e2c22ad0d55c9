package main

import (
	ostreecmd "github.com/benz9527/ostree/cmd"
)

func main() {
	ostreecmd.Main()
}
