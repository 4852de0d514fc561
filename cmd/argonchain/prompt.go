package main

import (
	"fmt"
	"io"
	"strconv"
)

// promptConfirmed asks for a secret twice until both entries match and are
// non-empty. Read errors end the loop.
func promptConfirmed(p prompter, errOut io.Writer, label, what string) (string, error) {
	for {
		first, err := p.Secret(fmt.Sprintf("Enter %s: ", label))
		if err != nil {
			return "", err
		}
		second, err := p.Secret(fmt.Sprintf("Confirm %s: ", label))
		if err != nil {
			return "", err
		}

		switch {
		case first != second:
			fmt.Fprintf(errOut, "%s entries do not match. Please try again.\n", what)
		case first == "":
			fmt.Fprintf(errOut, "%s cannot be empty. Please try again.\n", what)
		default:
			return first, nil
		}
	}
}

func promptInitial(p prompter, errOut io.Writer) (string, error) {
	return promptConfirmed(p, errOut, "the initial string", "Initial string")
}

// promptSalts asks how many salts to use (default 1) and then reads each one
// with confirmation.
func promptSalts(p prompter, errOut io.Writer) ([]string, error) {
	var count int
	for {
		answer, err := p.Line("Enter the number of salts you want to use [1]: ")
		if err != nil {
			return nil, err
		}
		if answer == "" {
			count = 1
			break
		}
		n, err := strconv.Atoi(answer)
		if err != nil || n <= 0 {
			fmt.Fprintln(errOut, "Number of salts must be a positive integer.")
			continue
		}
		count = n
		break
	}

	salts := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		salt, err := promptConfirmed(p, errOut, fmt.Sprintf("salt %d of %d", i, count), "Salt")
		if err != nil {
			return nil, err
		}
		salts = append(salts, salt)
	}
	return salts, nil
}
