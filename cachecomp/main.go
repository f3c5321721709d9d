package main

import "github.com/sarchlab/cachecomp/cachecomp/cmd"

func main() {
	cmd.Execute()
}
