// Command supportmesh runs the tiered customer-support router from the
// command line.
package main

func main() {
	Execute()
}
