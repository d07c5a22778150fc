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

package errorx

// define success code
const SuccessCode = "0"

// error code list
const (
	ErrCodeInternal = "10001" // internal error
	ErrCodeParam    = "10002" // parameter error
	ErrCodeConfig   = "10003" // configuration error
	ErrCodeNotFound = "10004" // target not found
	ErrCodeEncoding = "10005" // encoding error

	ErrCodeKeyLength = "10006" // symmetric key has wrong length
	ErrCodeCipher    = "10007" // authenticated decryption failed
	ErrCodeTimeout   = "10008" // waiting for a response timed out
	ErrCodeTransport = "10009" // message bus publish/consume error
)
