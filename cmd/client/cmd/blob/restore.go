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
	"context"
	"fmt"

	"github.com/spf13/cobra"

	httpclient "github.com/IzzyFuller/Quloud/client/http"
)

// restoreCmd represents the command to fetch a blob back from the network
var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "fetch a lost blob back from the storage network",
	Run: func(cmd *cobra.Command, args []string) {
		client, err := httpclient.New(host)
		if err != nil {
			fmt.Printf("err：%v\n", err)
			return
		}

		data, err := client.Restore(context.Background(), blobID)
		if err != nil {
			fmt.Printf("err：%v\n", err)
			return
		}

		fmt.Println("BlobID:", blobID)
		fmt.Println("Bytes:", len(data))
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}
