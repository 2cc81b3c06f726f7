// SPDX-License-Identifier: MPL-2.0

package main

import cmd "boxcar-cli/cmd/boxcar"

func main() {
	cmd.Execute()
}
