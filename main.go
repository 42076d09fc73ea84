package main

import "github.com/frahmantamala/hospital-records/cmd"

func main() {
	cmd.Execute()
}
