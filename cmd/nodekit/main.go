// Command nodekit evaluates single nodes outside a graph editor: it builds a
// node from the registry, feeds it channel data from a request file, and
// prints the outputs as JSON.
package main

func main() {
	Execute()
}
