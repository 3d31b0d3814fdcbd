// Package main provides a command-line crawler that prints extracted notices as JSON.
package main

func main() {
	Execute()
}
