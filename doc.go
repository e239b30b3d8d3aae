// Package intelmesh provides a native Go client for the IntelMesh
// threat-intelligence platform REST API.
//
// The client is organized around three layers: forms build the JSON
// documents requests carry, endpoint families issue the calls, and views
// give typed read access to the JSON documents responses carry.
//
// # Quick Start
//
//	client, err := intelmesh.New(intelmesh.Config{
//	    APIURL: "https://intelmesh.example.com/api",
//	    APIKey: os.Getenv("INTELMESH_API_KEY"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	domain := intelmesh.NewEntityForm(intelmesh.EntityTypeDomainName).
//	    AddKey(intelmesh.EntityKeyTypeString, "test.com")
//	addr := intelmesh.NewEntityForm(intelmesh.EntityTypeIPAddress).
//	    AddKey(intelmesh.EntityKeyTypeString, "8.8.8.8")
//
//	form := intelmesh.NewGenericObservationForm(intelmesh.ShareLevelGreen, time.Now()).
//	    AddAttributeFact(domain, intelmesh.AttributeNameIsIoC, true, 0.9).
//	    AddEntityRelationship(domain, intelmesh.RelationshipKindResolvesTo, addr, 0.5)
//
//	ref, err := client.Observations.Register(ctx, form)
//
// # Views
//
// Views decode lazily: fetching an observation never fails on content the
// caller does not touch. Each accessor reads the underlying document on
// every call and reports what it found:
//
//	view, err := client.Observations.View(ctx, observationUUID)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	seenAt, err := view.SeenAt() // decoded here, offset preserved
//
// # Error Handling
//
// Errors are typed and inspectable with errors.As and errors.Is:
//
//	_, err := client.Observations.View(ctx, unknownUUID)
//	var notFound *intelmesh.NotFoundError
//	if errors.As(err, &notFound) {
//	    // no such observation
//	}
//
//	_, err = view.SeenAt()
//	var decodeErr *intelmesh.DecodeError
//	if errors.As(err, &decodeErr) && errors.Is(err, intelmesh.ErrMissingField) {
//	    // the document has no seenAt key
//	}
//
// Requests that violate domain rules surface as *SemanticError with a
// machine-readable code; transport failures are wrapped and passed through
// unchanged. The client never retries and never paginates on its own.
package intelmesh
