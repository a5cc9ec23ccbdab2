// Command heartsketch turns a webcam into a heart-drawing and pinch-zoom
// controller.
package main

func main() {
	Execute()
}
