package utils

import (
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

func LogArgs() {
	for i, a := range os.Args {
		fmt.Printf("[arg] [%d]=%s\n", i, a)
	}
}

func LogEnvWithPrefix(prefix string, logPrefix string) {
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, prefix) {
			fmt.Printf("[%s]: %s\n", logPrefix, kv)
		}
	}
}

func LogHia2aEnv() {
	LogEnvWithPrefix(`HIA2A_`, `hia2a-env`)
}

func ProgName() string {
	return path.Base(os.Args[0])
}

func Measure(f func() error) (time.Duration, error) {
	t0 := time.Now()
	err := f()
	d := time.Since(t0)
	return d, err
}

func Rate(n int64, d time.Duration) float64 {
	return float64(n) / (float64(d) / float64(time.Second))
}

func ShowRate(r float64) string {
	return humanize.IBytes(uint64(r)) + "/s"
}

func ShowSize(n int64) string {
	return humanize.IBytes(uint64(n))
}

func pluralize(n int, singular, plural string) string {
	if n > 1 {
		return plural
	}
	return singular
}

func Pluralize(n int, singular, plural string) string {
	return fmt.Sprintf("%d %s", n, pluralize(n, singular, plural))
}
