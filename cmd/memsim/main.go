// Command memsim runs contiguous-allocation strategy simulations.
package main

func main() {
	execute()
}
