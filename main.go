package main

import "microblog-backend/cmd"

func main() {
	cmd.Run()
}
