//go:build !unix

package gateway

import "os/exec"

// setProcessGroup keeps exec's default cancellation, which kills the child only.
func setProcessGroup(*exec.Cmd) {}
