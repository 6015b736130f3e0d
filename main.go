package main

import (
	"status-board/bot"
	"status-board/command"
	"status-board/handlers"
)

func main() {
	bot.Run(handlers.Register, command.AllCommands)
}
