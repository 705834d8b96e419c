// Command doctool inspects documents on the command line: outline, text,
// section references, counts and structural comparison.
package main

func main() {
	Execute()
}
