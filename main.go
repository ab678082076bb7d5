package main

import "finance-ledger/cmd"

func main() {
	cmd.Execute()
}
