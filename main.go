// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package main

import (
	"os"

	"github.com/AccelByte/extend-escape-room/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
