// Package k8s loads kubeconfig files and creates Kubernetes clients for the
// contexts they define.
//
// KubeConfig is the merged view of every file named by KUBECONFIG (or the
// default file under the config directory). ClientFactory turns a context
// name into a kubernetes.Interface; RESTClientFactory is the production
// implementation and tests substitute a fake clientset through
// ClientFactoryFunc. ClientCache keeps one client per context for the
// lifetime of the process:
//
//	cfg, err := k8s.LoadKubeConfig(k8s.KubeconfigPaths(configDir))
//	if err != nil {
//		return err
//	}
//	clients := k8s.NewClientCache(k8s.NewRESTClientFactory(cfg, logger))
//	client, err := clients.Get(cfg.CurrentContext())
package k8s
