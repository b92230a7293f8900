package configcenter

import (
	"io/ioutil"
	"path/filepath"
)

func writeFile(dir, name string, data []byte) error {
	return ioutil.WriteFile(filepath.Join(dir, name), data, 0644)
}
