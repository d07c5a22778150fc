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

// deleteCmd represents the command to erase a blob everywhere
var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "erase a blob locally and across the storage network",
	Run: func(cmd *cobra.Command, args []string) {
		client, err := httpclient.New(host)
		if err != nil {
			fmt.Printf("err：%v\n", err)
			return
		}

		resp, err := client.Delete(context.Background(), blobID)
		if err != nil {
			fmt.Printf("err：%v\n", err)
			return
		}

		fmt.Println("deleted:", resp.BlobID)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
