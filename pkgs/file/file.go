// Copyright (c) 2024 Quloud Authors. All Rights Reserved.
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package file

import (
	"fmt"
	"os"
	"path/filepath"
)

// NodeKeyFileName name of the file holding a storage node's long-lived key
const NodeKeyFileName = "node.key"

// ReadFile read the file contents
func ReadFile(path, filename string) ([]byte, error) {
	name := filepath.Join(path, filename)
	content, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("ReadFile [%v] failed, err is [%v]", name, err)
	}
	return content, nil
}

// WriteFile write the file, creating the directory if needed
func WriteFile(path, filename string, content []byte, perm os.FileMode) error {
	if err := os.MkdirAll(path, 0700); err != nil {
		return fmt.Errorf("failed to create dir %s: %v", path, err)
	}
	return os.WriteFile(filepath.Join(path, filename), content, perm)
}

// IsFileExisted judge if the file exists
func IsFileExisted(path, filename string) (bool, error) {
	_, err := os.Stat(filepath.Join(path, filename))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// IsValidID reports whether a caller-supplied blob id is safe to embed in a
// file name, defending against path traversal on filesystem backings
func IsValidID(id string) bool {
	if id == "" || len(id) > 255 {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return false
		}
	}
	// "." and ".." resolve to directories
	return id != "." && id != ".."
}
