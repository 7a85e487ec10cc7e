// Package multichannel implements a multi-channel, multi-subscriber
// publish hub: any number of named channels, each with a bounded
// replay cache, and subscribers that multiplex reads across several
// channels through a single inbox.
package multichannel
