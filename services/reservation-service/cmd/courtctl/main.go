// Command courtctl runs maintenance tasks against the reservation database.
package main

func main() {
	Execute()
}
