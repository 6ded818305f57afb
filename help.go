package main

func executeHelp(args []string) {

	if len(args) == 0 {
		myPrintln("bye")
		myPrintln("help")
		myPrintln("list")
		myPrintln("new")
		myPrintln("old")
		myPrintln("run")
		myPrintln("save")
		myPrintln("shot")
		myPrintln("stats")
		myPrintln("trace")
		return
	}

	switch args[0] {
	default:
		myPrintln("No such command")

	case "bye":
		myPrintln("Exit the interpreter")

	case "help":
		myPrintln("Print this list, or describe one command")

	case "list":
		myPrintln("List the current program")

	case "new":
		myPrintln("Erase the current program and variables")

	case "old":
		myPrintln("Load a program file")

	case "run":
		myPrintln("Run the current program from its first line")

	case "save":
		myPrintln("Save the current program, optionally under a new name")

	case "shot":
		myPrintln("Write the drawing surface to a PNG file")

	case "stats":
		myPrintln("Print statistics for the last run")

	case "trace":
		myPrintln("Toggle statement or parse tracing")
	}
}
