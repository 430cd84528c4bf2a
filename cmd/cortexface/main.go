// Command cortexface renders a robot face on a small screen and obeys
// an expression protocol over TCP.
package main

import "runtime"

func init() {
	// GLFW needs the main thread; the render loop runs on it.
	runtime.LockOSThread()
}

func main() {
	Execute()
}
