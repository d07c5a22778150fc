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

package blob

import (
	"github.com/spf13/cobra"
)

var (
	host   string
	blobID string
)

// rootCmd represents the blob command
var rootCmd = &cobra.Command{
	Use:   "blob",
	Short: "blob operations on the data owner node",
}

func RootCmd() *cobra.Command {
	return rootCmd
}
func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "", "server address of the data owner node, example 'http://127.0.0.1:8121'")
	rootCmd.PersistentFlags().StringVar(&blobID, "id", "", "blob id")

	rootCmd.MarkPersistentFlagRequired("host")
	rootCmd.MarkPersistentFlagRequired("id")
}
