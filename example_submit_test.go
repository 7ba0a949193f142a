package dspace_test

import (
	"context"
	"fmt"

	dspace "github.com/divinity/dspace.go"
	"github.com/divinity/dspace.go/internal/fakedspace"
	"github.com/divinity/dspace.go/pkg/models"
)

func ExampleClient_Submit() {
	server := fakedspace.NewServer("admin@example.org", "admin")
	defer server.Close()

	client := dspace.New(server.APIRoot(), "admin@example.org", "admin")
	ctx := context.Background()

	item := models.NewItem("A Study of Bundles")
	item.OwningCollectionID = "5c5b3bd6-0c27-4d6c-8b9c-1f1a1d3c5e7f"
	item.AddMeta("dc.title", "A Study of Bundles")
	item.AddMeta("dc.contributor.author", "Lovelace, Ada", "Babbage, Charles")
	item.AddFile(models.NewInlineFile("study.txt", []byte("hello")).
		AddPolicy(models.NewGroupPolicy("anonymous")))

	if err := client.Submit(ctx, item); err != nil {
		panic(err)
	}

	fmt.Println("handle:", item.Handle)
	fmt.Println("files:", server.Bitstreams(item.ID))
	fmt.Println("policies:", len(server.Policies()))

	// Output:
	// handle: 123456789/1
	// files: [study.txt]
	// policies: 1
}

func ExampleDiffRelationships() {
	author := models.NewItem("Lovelace, Ada")
	author.ID = "author-1"
	author.RelationshipTypeID = 1

	editor := models.NewItem("Babbage, Charles")
	editor.ID = "editor-2"
	editor.RelationshipTypeID = 2

	remote := []models.Relationship{
		{LeftItemID: "item", RightItemID: "author-1", RelationshipTypeID: 1},
		{LeftItemID: "item", RightItemID: "old-3", RelationshipTypeID: 1},
		{LeftItemID: "other", RightItemID: "item", RelationshipTypeID: 4},
	}

	plan := dspace.DiffRelationships("item", []*models.Item{author, editor}, remote)
	for _, r := range plan.Delete {
		fmt.Println("delete", r.Key())
	}
	for _, e := range plan.Create {
		fmt.Println("create", models.RelationshipKey(e.RelationshipTypeID, e.ID))
	}

	// Output:
	// delete 1_old-3
	// delete 4_item
	// create 2_editor-2
}
