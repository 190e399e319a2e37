//go:build !glcanvasdebug

package assert

const enabled = false
