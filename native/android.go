//go:build android

package native

func init() {
	Register("android", newMobile)
}
