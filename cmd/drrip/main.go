// The drrip command replays cache access traces through a DRRIP
// replacement engine and inspects the results.
package main

func main() {
	Execute()
}
