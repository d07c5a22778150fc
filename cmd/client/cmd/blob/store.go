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
	"os"

	"github.com/spf13/cobra"

	httpclient "github.com/IzzyFuller/Quloud/client/http"
)

var (
	input    string
	replicas int
)

// storeCmd represents the command to upload a blob into quloud
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "save a file as an encrypted blob",
	Run: func(cmd *cobra.Command, args []string) {
		client, err := httpclient.New(host)
		if err != nil {
			fmt.Printf("err：%v\n", err)
			return
		}

		data, err := os.ReadFile(input)
		if err != nil {
			fmt.Printf("err：%v\n", err)
			return
		}

		opt := httpclient.StoreOptions{
			BlobID:   blobID,
			Replicas: replicas,
		}
		resp, err := client.Store(context.Background(), data, opt)
		if err != nil {
			fmt.Printf("err：%v\n", err)
			return
		}

		fmt.Println("BlobID:", resp.BlobID)
		fmt.Println("Acked:", resp.Acked)
	},
}

func init() {
	rootCmd.AddCommand(storeCmd)

	storeCmd.Flags().StringVarP(&input, "input", "i", "", "input file path")
	storeCmd.Flags().IntVarP(&replicas, "replicas", "r", -1, "replica count, default uses the node's configuration")

	storeCmd.MarkFlagRequired("input")
}
