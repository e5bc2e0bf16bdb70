// Command sleepctl drives the sleep binding from a shell. With the logind
// driver it suspends or powers off the host; with the sim driver it runs
// against a simulated chip, which is useful to try out scripts.
package main

func main() {
	Execute()
}
