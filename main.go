/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/RicardoValus/tasks-project/cmd"

func main() {
	cmd.Execute()
}
