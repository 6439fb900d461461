//go:build !unix

package config

const (
	UNIX = false
)

func targetSpecificInit() {
}
