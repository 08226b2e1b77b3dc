// lendctl is a small terminal client for the lending API. The server
// address comes from LENDCTL_ADDR (default http://localhost:5001) and the
// bearer token from LENDCTL_TOKEN, typically obtained with `lendctl login`.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/otherscovers/otherscovers/pkg/client"
	"github.com/spf13/cobra"
)

func newClient() *client.Client {
	addr := os.Getenv("LENDCTL_ADDR")
	if addr == "" {
		addr = "http://localhost:5001"
	}
	return client.New(addr, os.Getenv("LENDCTL_TOKEN"))
}

func cmdContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "lendctl",
		Short: "Command line client for the neighborhood lending service",
	}

	loginCmd := &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Authenticate and print a bearer token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			token, err := newClient().Login(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Println(token)
			fmt.Fprintln(os.Stderr, "export LENDCTL_TOKEN=<token above> to authenticate further calls")
			return nil
		},
	}

	searchCmd := &cobra.Command{
		Use:   "search <title>",
		Short: "Search the game catalog by title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			games, err := newClient().SearchGames(ctx, args[0])
			if err != nil {
				return err
			}
			for _, game := range games {
				fmt.Printf("%s  %s\n", game.ID.Hex(), game.Title)
			}
			return nil
		},
	}

	lendCmd := &cobra.Command{
		Use:   "lend <game-id>",
		Short: "Add a game to your lending library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			ids, err := newClient().LendGame(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("lending library now holds %d game(s)\n", len(ids))
			return nil
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove <game-id>",
		Short: "Remove a game from your lending library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			games, err := newClient().RemoveGame(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("lending library now holds %d game(s)\n", len(games))
			for _, game := range games {
				fmt.Printf("%s  %s\n", game.ID.Hex(), game.Title)
			}
			return nil
		},
	}

	gamesCmd := &cobra.Command{
		Use:   "games",
		Short: "List the games in your lending library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			games, err := newClient().MyLibraryGames(ctx)
			if err != nil {
				return err
			}
			if len(games) == 0 {
				fmt.Println("your lending library is empty")
				return nil
			}
			for _, game := range games {
				fmt.Printf("%s  %s\n", game.ID.Hex(), game.Title)
			}
			return nil
		},
	}

	availableCmd := &cobra.Command{
		Use:   "available",
		Short: "List games offered by other members of your communities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			games, err := newClient().CommunityGames(ctx)
			if err != nil {
				return err
			}
			if len(games) == 0 {
				fmt.Println("no games available in your communities")
				return nil
			}
			for _, game := range games {
				fmt.Printf("%s  %s\n", game.ID.Hex(), game.Title)
			}
			return nil
		},
	}

	booksCmd := &cobra.Command{
		Use:   "books",
		Short: "List the books you are offering to lend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			books, err := newClient().MyLibrary(ctx)
			if err != nil {
				return err
			}
			if len(books) == 0 {
				fmt.Println("you are not offering any books yet")
				return nil
			}
			for _, book := range books {
				fmt.Printf("%s  %s by %s\n", book.ID.Hex(), book.Title, book.Author)
			}
			return nil
		},
	}

	var offerAuthor, offerGoogleID string
	offerCmd := &cobra.Command{
		Use:   "offer <title>",
		Short: "Offer a book for lending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			books, err := newClient().OfferBook(ctx, args[0], offerAuthor, offerGoogleID)
			if err != nil {
				return err
			}
			fmt.Printf("you are now offering %d book(s)\n", len(books))
			return nil
		},
	}
	offerCmd.Flags().StringVar(&offerAuthor, "author", "", "book author")
	offerCmd.Flags().StringVar(&offerGoogleID, "google-id", "", "Google Books ID")
	_ = offerCmd.MarkFlagRequired("author")

	deleteOfferCmd := &cobra.Command{
		Use:   "delete-offer <book-id>",
		Short: "Withdraw a book offer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			books, err := newClient().DeleteOffer(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("you are now offering %d book(s)\n", len(books))
			return nil
		},
	}

	rootCmd.AddCommand(loginCmd, searchCmd, lendCmd, removeCmd, gamesCmd, availableCmd, booksCmd, offerCmd, deleteOfferCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
