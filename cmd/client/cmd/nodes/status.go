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

package nodes

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	httpclient "github.com/IzzyFuller/Quloud/client/http"
)

// statusCmd represents the command to inspect a running node
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "show a node's type, blob count and start time",
	Run: func(cmd *cobra.Command, args []string) {
		client, err := httpclient.New(host)
		if err != nil {
			fmt.Printf("err：%v\n", err)
			return
		}

		resp, err := client.Status(context.Background())
		if err != nil {
			fmt.Printf("err：%v\n", err)
			return
		}

		fmt.Println("Name:", resp.Name)
		fmt.Println("Type:", resp.Type)
		fmt.Println("BlobCount:", resp.BlobCount)
		fmt.Println("StartedAt:", resp.StartedAt)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
