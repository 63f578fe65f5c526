// Package sifibridge drives the sifi_bridge command-line executable, which
// manages SiFi Labs biosignal devices (BioPoint, BioArmband) over BLE or
// serial links. The package spawns the executable, writes newline-terminated
// text commands to its stdin, and reads newline-delimited JSON packets from
// its stdout.
//
// The protocol has no request IDs. Request/response pairing relies on
// ordering: an operation writes its command, then blocks reading packets
// until one carries the key path that operation expects, discarding
// everything else (asynchronous status updates, data packets from a running
// acquisition, responses meant for nobody). ReadUntil exposes that filter
// directly; the typed operations wrap it.
//
// Calls block without timeouts. A device that never answers blocks the
// caller until the bridge process exits, so interactive programs run the
// client on its own goroutine. A Bridge must not be used from multiple
// goroutines concurrently.
//
// Typical use:
//
//	b, err := sifibridge.New()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
//	for {
//		ok, err := b.Connect(sifibridge.BioPointV1_3.String())
//		if err != nil {
//			log.Fatal(err)
//		}
//		if ok {
//			break
//		}
//	}
//
//	b.SetChannels(sifibridge.Channels{ECG: true, EMG: true})
//	b.Start()
//	for {
//		pkt, err := b.ReadPacket()
//		if err != nil {
//			break
//		}
//		// route pkt by pkt.StringAt("packet_type")
//	}
package sifibridge
