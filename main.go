package main

import "github.com/bascanada/fhirquery/cmd"

func main() {
	cmd.Execute()
}
