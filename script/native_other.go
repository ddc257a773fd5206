//go:build !(linux && amd64)

package script

import (
	"context"
	"fmt"
	"runtime"

	"github.com/arloliu/demopak/errs"
)

func loadNative(_ context.Context, _ Blob, _ *engineConfig) (Program, error) {
	return nil, fmt.Errorf("%w: native programs need linux/amd64, running on %s/%s", errs.ErrBackendUnsupported, runtime.GOOS, runtime.GOARCH)
}
