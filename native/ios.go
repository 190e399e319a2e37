//go:build ios

package native

func init() {
	Register("ios", newMobile)
}
