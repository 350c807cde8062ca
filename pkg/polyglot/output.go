package polyglot

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/cleasbycode/pdvzip-go/pkg/utils/permissions"
)

// WriteOut writes data to a freshly generated "pzip_NNNNN.png" filename in
// dir (dir may be empty for the current directory), refusing to overwrite
// an existing file by retrying with a new random suffix. It returns the
// path written. See spec.md §4.I.
func WriteOut(logger hclog.Logger, dir string, data []byte) (string, error) {
	for attempt := 0; attempt < 100; attempt++ {
		name := fmt.Sprintf("pzip_%05d.png", rand.Intn(100000))
		path := name
		if dir != "" {
			path = dir + string(os.PathSeparator) + name
		}

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, os.FileMode(permissions.DefaultFilePerms))
		if err != nil {
			if os.IsExist(err) {
				continue
			}
			return "", newErr(CategoryIOWrite, "unable to create output file: %v", err)
		}

		_, writeErr := f.Write(data)
		closeErr := f.Close()
		if writeErr != nil {
			os.Remove(path)
			return "", newErr(CategoryIOWrite, "unable to write output file: %v", writeErr)
		}
		if closeErr != nil {
			return "", newErr(CategoryIOWrite, "unable to finalize output file: %v", closeErr)
		}

		logger.Info("wrote polyglot image", "path", path, "size", len(data))
		return path, nil
	}
	return "", newErr(CategoryIOWrite, "unable to find an unused output filename")
}
