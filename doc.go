/*
Package alerthook is a small client library that formats alert
notifications and dispatches them to a webhook-based messaging platform.

A Sender is configured once through the Builder and then used to post
alerts without ever blocking or faulting the caller:

	sender, err := alerthook.NewBuilder().
		Platform("discord").
		Endpoint("https://discord.com/api/webhooks/...").
		Build()
	if err != nil {
		// configuration mistakes fail loudly, at startup
	}
	sender.Send("disk space low", "/var/lib is above 90%", map[string]interface{}{
		"host": "db-1",
	})

Send validates its arguments, renders the platform payload, and issues
the HTTP POST on a background goroutine. Delivery failures are reported
through the Diagnostic side channel and never reach the caller.
*/
package alerthook
