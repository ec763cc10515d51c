package main

import "github.com/zilpool/go-zil-wallet/cmd"

func main() {
	cmd.Execute()
}
